package models

type User2DeviceModel struct {
	ID       string `gorm:"primaryKey"`
	UserID   string `gorm:"uniqueIndex:idx_user2device;not null"`
	DeviceID string `gorm:"uniqueIndex:idx_user2device;not null"`
	Active   bool
	Percent  int

	User   *UserModel   `gorm:"foreignKey:UserID"`
	Device *DeviceModel `gorm:"foreignKey:DeviceID"`
}

func (User2DeviceModel) TableName() string {
	return "user2device"
}
