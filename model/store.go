package model

// StoreEntry is one durable key-value row.
type StoreEntry struct {
	Key   string `gorm:"primaryKey;size:191"`
	Value string `gorm:"type:text"`
}

func (StoreEntry) TableName() string {
	return "store_entries"
}
