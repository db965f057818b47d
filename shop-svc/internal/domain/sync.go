package domain

// MenuExport is the body pushed to the partner platform.
type MenuExport struct {
	RestaurantExternalID string           `json:"restaurantExternalId"`
	RestaurantName       string           `json:"restaurantName"`
	RestaurantAddress    string           `json:"restaurantAddress"`
	RestaurantPhone      string           `json:"restaurantPhone"`
	Currency             string           `json:"currency"`
	Items                []MenuExportItem `json:"items"`
}

type MenuExportItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Calories    *int    `json:"calories"`
	IsEnabled   bool    `json:"isEnabled"`
}

// MenuImport is the body the partner platform posts to us.
type MenuImport struct {
	Items []MenuImportItem `json:"items"`
}

type MenuImportItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Calories    *int     `json:"calories"`
	IsEnabled   *bool    `json:"isEnabled"`
}

type ImportResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=admin write read_only"`
	Capabilities
}
