package user2devicedto

type AssignDeviceInput struct {
	Username   string `validate:"required"`
	DeviceName string `validate:"required"`
}

type UpdateUser2DeviceInput struct {
	Username   string `validate:"required"`
	DeviceName string `validate:"required"`
	Active     bool
	Percent    int `validate:"gte=0,lte=100"`
}
