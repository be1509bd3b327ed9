package event

// Operation names a mutation of the identifier tree.
type Operation string

const (
	OperationDatabaseCreated Operation = "databaseCreated"
	OperationDatabaseRemoved Operation = "databaseRemoved"
	OperationRegistryCreated Operation = "registryCreated"
	OperationRegistryDeleted Operation = "registryDeleted"
	OperationRegistryUpdated Operation = "registryUpdated"
	OperationSnapshotLoaded  Operation = "snapshotLoaded"
)

// Change is published after every successful mutation. Code holds the full
// code of the affected database or registry.
type Change struct {
	Operation Operation `json:"operation"`
	Database  string    `json:"database,omitempty"`
	Code      string    `json:"code,omitempty"`
	Label     string    `json:"label,omitempty"`
	Category  string    `json:"category,omitempty"`
	Revision  uint64    `json:"revision"`
}
