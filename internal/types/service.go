package types

// Category represents service categories
type Category string

const (
	CategoryProcess Category = "process"
)

// Service represents a service definition
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool represents a service tool
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Result represents a service execution result
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
}

// Text returns the payload a tool result carries back to the caller.
// Failed results carry their message in Error, successful ones in
// Data["output"].
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	if !r.Success && r.Error != nil {
		return *r.Error
	}
	if out, ok := r.Data["output"].(string); ok {
		return out
	}
	return ""
}
