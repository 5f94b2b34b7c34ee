package movement

// Config tunes the player controller. Speeds are m/s, accelerations 1/s
// factors applied to the wish speed, angles degrees.
type Config struct {
	Sensitivity float64
	MaxPitch    float64

	MaxGroundSpeed float64
	MaxAirSpeed    float64
	GroundAccel    float64
	AirAccel       float64
	Friction       float64
	Gravity        float64
	JumpHeight     float64
	GroundStick    float64

	RunMultiplier float64
	AimMultiplier float64

	BunnyHop      bool
	ClampDiagonal bool
}

func DefaultConfig() Config {
	return Config{
		Sensitivity:    0.12,
		MaxPitch:       85,
		MaxGroundSpeed: 9,
		MaxAirSpeed:    9,
		GroundAccel:    55,
		AirAccel:       18,
		Friction:       12,
		Gravity:        -28,
		JumpHeight:     1.2,
		GroundStick:    -2,
		RunMultiplier:  1.25,
		AimMultiplier:  0.65,
		BunnyHop:       true,
		ClampDiagonal:  true,
	}
}
