package shop

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusCancelled  Status = "cancelled"
	StatusDeleted    Status = "deleted"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusCancelled, StatusDeleted:
		return true
	}
	return false
}

// SettableViaUpdate: "deleted" hanya lewat operasi delete, bukan update status,
// supaya pelepasan stok tidak ambigu.
func (s Status) SettableViaUpdate() bool {
	return ValidStatus(s) && s != StatusDeleted
}

// HoldsStock: status yang masih memegang stok hasil reservasi.
// Shipped = stok sudah terpakai, cancelled = sudah dilepas.
func (s Status) HoldsStock() bool {
	return s == StatusPending || s == StatusProcessing
}
