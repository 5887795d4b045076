package models

// Workspace groups forms for one owner. At most one workspace per owner is
// the default; the first one created gets the flag. Forms reference their
// workspace by id, a form may also live outside any workspace.
type Workspace struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"ownerId"`
	IsDefault   bool   `json:"isDefault"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}
