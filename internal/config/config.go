// internal/config/config.go
package config

type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Storage StorageConfig `yaml:"storage"`
	API     APIConfig     `yaml:"api"`
	Metrics MetricsConfig `yaml:"metrics"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Log     LogConfig     `yaml:"log"`
}

// ---- BOT ----

type BotConfig struct {
	ID       string            `yaml:"id"`
	Source   SourceConfig      `yaml:"source"`
	Layout   LayoutConfig      `yaml:"layout"`
	Commands map[uint16]string `yaml:"commands"` // command code -> name; 0 is reserved for "none"
	Poll     PollConfig        `yaml:"poll"`
}

// ---- SOURCE ----

type SourceConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- REGISTER LAYOUT ----

type LayoutConfig struct {
	BusyCoil         uint16      `yaml:"busy_coil"`         // FC 1
	CommandRegister  uint16      `yaml:"command_register"`  // FC 3
	PositionRegister uint16      `yaml:"position_register"` // FC 4, x y z
	PositionScale    float64     `yaml:"position_scale"`
	DigitalBase      uint16      `yaml:"digital_base"` // FC 2
	AnalogBase       uint16      `yaml:"analog_base"`  // FC 4
	Pins             []PinConfig `yaml:"pins"`
}

type PinConfig struct {
	Pin  int    `yaml:"pin"`
	Mode string `yaml:"mode"` // digital | analog
}

const (
	PinModeDigital = "digital"
	PinModeAnalog  = "analog"
)

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- DELIVERY ----

type StorageConfig struct {
	Path string `yaml:"path"`
}

type APIConfig struct {
	Listen string `yaml:"listen"`
}

// MetricsConfig is optional; empty Listen disables the exporter.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// MQTTConfig is optional; empty Broker disables publishing.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}
