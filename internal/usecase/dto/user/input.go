package userdto

type CreateUserInput struct {
	Username  string `validate:"required,max=256"`
	FirstName string `validate:"max=256"`
	LastName  string `validate:"max=256"`
	Locale    string `validate:"omitempty,max=5"`
}

type UpdateUserInput struct {
	Username           string `validate:"required"`
	FirstName          string `validate:"max=256"`
	LastName           string `validate:"max=256"`
	Locale             string `validate:"omitempty,max=5"`
	Active             bool
	ProcessNamePattern string `validate:"max=256"`
}
