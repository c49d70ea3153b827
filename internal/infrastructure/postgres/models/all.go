package models

// All lists every persisted model, parents first.
func All() []any {
	return []any{
		&UserModel{},
		&DeviceModel{},
		&User2DeviceModel{},
		&RuleSetModel{},
		&RuleOverrideModel{},
		&TimeExtensionModel{},
		&AdminEventModel{},
	}
}
