package timeextensiondto

type RequestTimeExtensionInput struct {
	Username   string `validate:"required"`
	AccessCode string `validate:"required"`
	Minutes    int    `validate:"ne=0"`
}
