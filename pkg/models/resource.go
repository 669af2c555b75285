package models

// Resource describes one WooCommerce collection migrated by the pipeline.
type Resource struct {
	// Name is the REST endpoint, e.g. "orders".
	Name string
	// Noun is the singular used in messages, e.g. "order".
	Noun string
	// PageSize is the per_page value of list requests.
	PageSize int
	// DateFields are rewritten from ISO strings to time.Time before upsert.
	DateFields []string
	// Role restricts customer listings; empty for orders.
	Role string
	// ServerSideRange sends after/before with list requests. When false the
	// run window is applied to date_created after fetching.
	ServerSideRange bool
}

var Orders = Resource{
	Name:     "orders",
	Noun:     "order",
	PageSize: 25,
	DateFields: []string{
		"date_created",
		"date_created_gmt",
		"date_modified",
		"date_modified_gmt",
		"date_paid",
		"date_paid_gmt",
		"date_completed",
		"date_completed_gmt",
	},
	ServerSideRange: true,
}

var Customers = Resource{
	Name:     "customers",
	Noun:     "customer",
	PageSize: 100,
	DateFields: []string{
		"date_created",
		"date_created_gmt",
		"date_modified",
		"date_modified_gmt",
	},
	Role: "seller",
}
