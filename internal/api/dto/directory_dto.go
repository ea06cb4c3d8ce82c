package dto

// DirectoryDepartmentResponse describes one department's routing ownership.
type DirectoryDepartmentResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	HeadUserID string   `json:"head_user_id,omitempty"`
	Categories []string `json:"categories"`
	Floors     []string `json:"floors"`
}

// DepartmentResponse is the persisted department row view.
type DepartmentResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	HeadUserID *string `json:"head_user_id,omitempty"`
	IsActive   bool    `json:"is_active"`
}

// DirectoryResponse is the full routing directory view.
type DirectoryResponse struct {
	Version            string                        `json:"version"`
	FallbackDepartment string                        `json:"fallback_department"`
	Departments        []DirectoryDepartmentResponse `json:"departments"`
}
