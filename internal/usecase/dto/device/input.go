package devicedto

type CreateDeviceInput struct {
	// NamePattern contains a %d verb replaced by the first free number.
	NamePattern string `validate:"required,contains=%d"`
}

type UpdateDeviceInput struct {
	DeviceName          string `validate:"required"`
	NewDeviceName       string `validate:"omitempty,max=256"`
	Hostname            string `validate:"max=256"`
	MinActivityDuration int    `validate:"gte=0"`
	MaxActivePingDelay  int    `validate:"gte=0"`
	SampleSize          int    `validate:"gte=1"`
}
