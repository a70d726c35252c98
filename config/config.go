// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	World        WorldConfig        `yaml:"world"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Vehicle      VehicleConfig      `yaml:"vehicle"`
	Drive        DriveConfig        `yaml:"drive"`
	CameraFX     CameraFXConfig     `yaml:"camera_fx"`
	Transmission TransmissionConfig `yaml:"transmission"`
	Audio        AudioConfig        `yaml:"audio"`
	Autopilot    AutopilotConfig    `yaml:"autopilot"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds driving area dimensions.
// The area can be larger than the screen; the camera handles the viewport.
type WorldConfig struct {
	Width  int `yaml:"width"`  // World width in world units (0 = use screen width)
	Height int `yaml:"height"` // World height in world units (0 = use screen height)
}

// PhysicsConfig holds simulation physics parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// VehicleConfig holds chassis and wheel parameters.
type VehicleConfig struct {
	Mass              float64 `yaml:"mass"`               // kg
	DragCoefficient   float64 `yaml:"drag_coefficient"`   // lumped 0.5*Cd*A*rho
	RollingResistance float64 `yaml:"rolling_resistance"` // linear resistance term
	Wheelbase         float64 `yaml:"wheelbase"`          // m
	TrackWidth        float64 `yaml:"track_width"`        // m
	WheelRadius       float64 `yaml:"wheel_radius"`       // m
	WheelGrip         float64 `yaml:"wheel_grip"`         // friction coefficient
}

// DriveConfig holds drive controller tuning.
type DriveConfig struct {
	MaxSteerAngleDeg   float64 `yaml:"max_steer_angle_deg"`  // Full-lock steering angle
	MaxHandbrakeTorque float64 `yaml:"max_handbrake_torque"` // Nm applied to every wheel
	Downforce          float64 `yaml:"downforce"`            // N per m/s of body speed
	SlipLimit          float64 `yaml:"slip_limit"`           // Slip magnitude that counts as sliding
	ReverseMultiplier  float64 `yaml:"reverse_multiplier"`   // Torque scale while reversing
	CenterOfMassY      float64 `yaml:"center_of_mass_y"`     // Vertical mass center offset, m
}

// CameraFXConfig holds speed-driven camera feedback parameters.
type CameraFXConfig struct {
	FOVMin      float64 `yaml:"fov_min"`       // Degrees at standstill
	FOVMax      float64 `yaml:"fov_max"`       // Degrees at and above fov_max_speed
	FOVMaxSpeed float64 `yaml:"fov_max_speed"` // km/h where FOV saturates
	FollowLag   float64 `yaml:"follow_lag"`    // Camera position smoothing factor per second
}

// TransmissionConfig holds the gear curve set. Gears are matched in
// listed order.
type TransmissionConfig struct {
	Gears []GearConfig `yaml:"gears"`
}

// GearConfig is one gear's torque curve over speed.
type GearConfig struct {
	Name string     `yaml:"name"`
	Keys []CurveKey `yaml:"keys"`
}

// CurveKey is a speed/torque pair on a gear curve.
type CurveKey struct {
	Speed  float64 `yaml:"speed"`  // km/h
	Torque float64 `yaml:"torque"` // Nm
}

// AudioConfig holds sound settings.
type AudioConfig struct {
	SkidSound string  `yaml:"skid_sound"` // Path to the skid loop; empty disables it
	Volume    float64 `yaml:"volume"`
}

// AutopilotConfig holds the scripted traffic settings.
type AutopilotConfig struct {
	Count       int     `yaml:"count"`        // Extra self-driving vehicles
	Throttle    float64 `yaml:"throttle"`     // Constant acceleration input
	SteerPeriod float64 `yaml:"steer_period"` // Seconds per full steering sweep
	SpawnRadius float64 `yaml:"spawn_radius"` // Distance from origin to scatter spawns
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32          float32 // Physics.DT as float32
	ScreenW32     float32 // Screen.Width as float32
	ScreenH32     float32 // Screen.Height as float32
	WorldW32      float32 // Effective world width as float32
	WorldH32      float32 // Effective world height as float32
	MaxSteerAngle float64 // Drive.MaxSteerAngleDeg in radians
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)

	c.Derived.MaxSteerAngle = c.Drive.MaxSteerAngleDeg * math.Pi / 180
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
