package dispatch

import (
	"net/http"

	"github.com/terraconstructs/shopctl/internal/refs"
)

// Operation names.
const (
	OpRegister      = "auth.register"
	OpLogin         = "auth.login"
	OpLogout        = "auth.logout"
	OpProfileGet    = "auth.profile.get"
	OpProfileUpdate = "auth.profile.update"

	OpUsersList   = "users.list"
	OpUsersGet    = "users.get"
	OpUsersUpdate = "users.update"

	OpProductsCreate = "products.create"
	OpProductsList   = "products.list"
	OpProductsGet    = "products.get"
	OpProductsUpdate = "products.update"
	OpProductsDelete = "products.delete"
	OpProductReviews = "products.reviews"

	OpServicesCreate = "services.create"
	OpServicesList   = "services.list"
	OpServicesGet    = "services.get"
	OpServicesUpdate = "services.update"
	OpServicesDelete = "services.delete"

	OpResourcesCreate   = "resources.create"
	OpResourcesList     = "resources.list"
	OpResourcesGet      = "resources.get"
	OpResourcesDownload = "resources.download"

	OpOrdersCreate = "orders.create"
	OpOrdersList   = "orders.list"
	OpOrdersGet    = "orders.get"
	OpOrdersStatus = "orders.status"

	OpPaymentsCreate = "payments.create"

	OpTrackingAdd = "tracking.add"
	OpTrackingGet = "tracking.get"

	OpReviewsCreate = "reviews.create"

	OpAnalyticsSummary = "analytics.summary"
	OpAnalyticsSales   = "analytics.sales"
	OpAnalyticsAudit   = "analytics.audit"

	OpHealth = "health"

	OpSearch = "search"
)

func text(name, usage string) Field {
	return Field{Name: name, Rule: RuleString, Usage: usage}
}

var (
	registerFields = []Field{
		text("username", "Username"),
		text("email", "Email address"),
		text("password", "Password"),
		text("first_name", "First name"),
		text("last_name", "Last name"),
		text("phone", "Phone number"),
		{Name: "role", Rule: RuleString, Default: "customer", Usage: "Role: customer, vendor or admin"},
	}

	loginFields = []Field{
		text("email", "Email address"),
		text("password", "Password"),
	}

	profileFields = []Field{
		text("first_name", "First name"),
		text("last_name", "Last name"),
		text("phone", "Phone number"),
		text("address", "Street address"),
		text("city", "City"),
		text("country", "Country"),
		text("postal_code", "Postal code"),
	}

	userUpdateFields = []Field{
		{Name: "role", Rule: RuleString, Default: "admin", Usage: "Role to assign"},
		{Name: "is_verified", Rule: RuleBool, Default: "true", Usage: "Mark the user verified"},
		{Name: "is_active", Rule: RuleBool, Default: "true", Usage: "Mark the user active"},
	}

	productFields = []Field{
		text("name", "Product name"),
		text("description", "Description"),
		{Name: "price", Rule: RuleFloat, Usage: "Price"},
		{Name: "discounted_price", Rule: RuleOptionalFloat, Usage: "Discounted price"},
		text("category", "Category"),
		text("subcategory", "Subcategory"),
		text("brand", "Brand"),
		text("sku", "SKU"),
		{Name: "stock_quantity", Rule: RuleIntDefault, Fallback: 0, Usage: "Stock quantity (0 when not numeric)"},
		{Name: "weight", Rule: RuleOptionalFloat, Usage: "Weight in kg"},
		text("color", "Color"),
		text("size", "Size"),
		text("image_url", "Image URL"),
		{Name: "tags", Rule: RuleTags, Usage: "Tags (comma separated)"},
		{Name: "is_featured", Rule: RuleBool, Default: "false", Usage: "Feature the product"},
	}

	serviceFields = []Field{
		text("name", "Service name"),
		text("description", "Description"),
		{Name: "price", Rule: RuleFloat, Usage: "Price"},
		text("duration", "Duration (e.g. 2 hours)"),
		text("category", "Category"),
		{Name: "requires_booking", Rule: RuleBool, Default: "false", Usage: "Service requires booking"},
		{Name: "max_participants", Rule: RuleOptionalInt, Usage: "Maximum participants"},
		text("image_url", "Image URL"),
	}

	resourceFields = []Field{
		text("title", "Title"),
		text("description", "Description"),
		text("type", "Type: ebook, video, template or tool"),
		text("category", "Category"),
		text("file_url", "File URL"),
		text("thumbnail_url", "Thumbnail URL"),
		{Name: "price", Rule: RuleFloatOrZero, Usage: "Price (0 when not numeric)"},
		{Name: "is_free", Rule: RuleBool, Default: "false", Usage: "Resource is free"},
		{Name: "tags", Rule: RuleTags, Usage: "Tags (comma separated)"},
	}

	orderFields = []Field{
		text("shipping_address", "Shipping address"),
		text("billing_address", "Billing address"),
		text("shipping_method", "Shipping method"),
		text("notes", "Notes"),
	}

	orderStatusFields = []Field{
		{Name: "status", Rule: RuleString, Default: "processing", Usage: "New order status"},
	}

	paymentFields = []Field{
		text("order_id", "Order ID (defaults to the last created order)"),
		{Name: "amount", Rule: RuleFloat, Usage: "Amount"},
		{Name: "method", Rule: RuleString, Default: "credit_card", Usage: "Method: credit_card, paypal, stripe or cash"},
		{Name: "currency", Rule: RuleString, Default: "USD", Usage: "Currency"},
	}

	trackingFields = []Field{
		{Name: "status", Rule: RuleString, Default: "in_transit", Usage: "picked_up, in_transit, out_for_delivery, delivered or delayed"},
		text("location", "Current location"),
		text("description", "Description"),
		text("tracking_number", "Carrier tracking number"),
		text("estimated_delivery", "Estimated delivery (e.g. 2026-10-21T15:00)"),
	}

	reviewFields = []Field{
		text("product_id", "Reviewed product ID"),
		text("service_id", "Reviewed service ID"),
		{Name: "rating", Rule: RuleIntDefault, Default: "5", Fallback: 5, Usage: "Rating 1-5"},
		text("title", "Title"),
		text("comment", "Comment"),
		{Name: "is_verified_purchase", Rule: RuleBool, Default: "false", Usage: "Verified purchase"},
	}
)

var catalog = []Operation{
	// Auth
	{Name: OpRegister, Summary: "Register a new account", Method: http.MethodPost, Path: "/auth/register",
		Fields: registerFields, Effect: EffectSetCredential},
	{Name: OpLogin, Summary: "Log in", Method: http.MethodPost, Path: "/auth/login",
		Fields: loginFields, Effect: EffectSetCredential},
	{Name: OpLogout, Summary: "Forget the stored credential", Local: true, Effect: EffectClearCredential},
	{Name: OpProfileGet, Summary: "Show the current profile", Method: http.MethodGet, Path: "/auth/profile",
		Requirement: RequireCredential, Effect: EffectRememberProfile, Envelope: "user"},
	{Name: OpProfileUpdate, Summary: "Update the current profile", Method: http.MethodPut, Path: "/auth/profile",
		Requirement: RequireCredential, Fields: profileFields, Partial: true},

	// Admin users
	{Name: OpUsersList, Summary: "List all users", Method: http.MethodGet, Path: "/admin/users",
		Requirement: RequireAdmin, Effect: EffectRecordFirstOfList, Envelope: "users", EffectKind: refs.KindUser},
	{Name: OpUsersGet, Summary: "Show a user", Method: http.MethodGet, Path: "/admin/users/{id}",
		PathKind: refs.KindUser, Requirement: RequireAdmin},
	{Name: OpUsersUpdate, Summary: "Update a user's role and flags", Method: http.MethodPut, Path: "/admin/users/{id}",
		PathKind: refs.KindUser, Requirement: RequireAdmin, Fields: userUpdateFields},

	// Products
	{Name: OpProductsCreate, Summary: "Create a product", Method: http.MethodPost, Path: "/products",
		Requirement: RequireVendorOrAdmin, Fields: productFields,
		Extras: map[string]any{"gallery_images": []any{}, "specifications": map[string]any{}},
		Effect: EffectRecordCreated, Envelope: "product", EffectKind: refs.KindProduct},
	{Name: OpProductsList, Summary: "List products", Method: http.MethodGet, Path: "/products"},
	{Name: OpProductsGet, Summary: "Show a product", Method: http.MethodGet, Path: "/products/{id}",
		PathKind: refs.KindProduct},
	{Name: OpProductsUpdate, Summary: "Update a product", Method: http.MethodPut, Path: "/products/{id}",
		PathKind: refs.KindProduct, Requirement: RequireVendorOrAdmin, Fields: productFields, Partial: true},
	{Name: OpProductsDelete, Summary: "Delete a product", Method: http.MethodDelete, Path: "/products/{id}",
		PathKind: refs.KindProduct, Requirement: RequireVendorOrAdmin},
	{Name: OpProductReviews, Summary: "List a product's reviews", Method: http.MethodGet, Path: "/products/{id}/reviews",
		PathKind: refs.KindProduct},

	// Services
	{Name: OpServicesCreate, Summary: "Create a service", Method: http.MethodPost, Path: "/services",
		Requirement: RequireVendorOrAdmin, Fields: serviceFields,
		Extras: map[string]any{"availability": map[string]any{}},
		Effect: EffectRecordCreated, Envelope: "service", EffectKind: refs.KindService},
	{Name: OpServicesList, Summary: "List services", Method: http.MethodGet, Path: "/services"},
	{Name: OpServicesGet, Summary: "Show a service", Method: http.MethodGet, Path: "/services/{id}",
		PathKind: refs.KindService},
	{Name: OpServicesUpdate, Summary: "Update a service", Method: http.MethodPut, Path: "/services/{id}",
		PathKind: refs.KindService, Requirement: RequireVendorOrAdmin, Fields: serviceFields, Partial: true},
	{Name: OpServicesDelete, Summary: "Delete a service", Method: http.MethodDelete, Path: "/services/{id}",
		PathKind: refs.KindService, Requirement: RequireVendorOrAdmin},

	// Resources
	{Name: OpResourcesCreate, Summary: "Create a digital resource", Method: http.MethodPost, Path: "/resources",
		Requirement: RequireCredential, Fields: resourceFields,
		Extras: map[string]any{"metadata": map[string]any{}},
		Effect: EffectRecordCreated, Envelope: "resource", EffectKind: refs.KindResource},
	{Name: OpResourcesList, Summary: "List resources", Method: http.MethodGet, Path: "/resources"},
	{Name: OpResourcesGet, Summary: "Show a resource", Method: http.MethodGet, Path: "/resources/{id}",
		PathKind: refs.KindResource},
	{Name: OpResourcesDownload, Summary: "Request a resource download", Method: http.MethodPost, Path: "/resources/{id}/download",
		PathKind: refs.KindResource, Requirement: RequireCredential},

	// Orders
	{Name: OpOrdersCreate, Summary: "Place the pending order draft", Method: http.MethodPost, Path: "/orders",
		Requirement: RequireCredential, Fields: orderFields, Draft: DraftOrderItems,
		Effect: EffectRecordCreated, Envelope: "order", EffectKind: refs.KindOrder, SeedsPayment: true},
	{Name: OpOrdersList, Summary: "List my orders", Method: http.MethodGet, Path: "/orders",
		Requirement: RequireCredential},
	{Name: OpOrdersGet, Summary: "Show an order", Method: http.MethodGet, Path: "/orders/{id}",
		PathKind: refs.KindOrder, Requirement: RequireCredential},
	{Name: OpOrdersStatus, Summary: "Update an order's status", Method: http.MethodPut, Path: "/orders/{id}/status",
		PathKind: refs.KindOrder, Requirement: RequireVendorOrAdmin, Fields: orderStatusFields},

	// Payments
	{Name: OpPaymentsCreate, Summary: "Pay for an order", Method: http.MethodPost, Path: "/payments",
		Requirement: RequireCredential, Fields: paymentFields, Draft: DraftPayment,
		Extras: map[string]any{"payment_details": map[string]any{}}},

	// Tracking
	{Name: OpTrackingAdd, Summary: "Add a tracking event to an order", Method: http.MethodPost, Path: "/orders/{id}/tracking",
		PathKind: refs.KindOrder, Requirement: RequireVendorOrAdmin, Fields: trackingFields},
	{Name: OpTrackingGet, Summary: "Show an order's tracking history", Method: http.MethodGet, Path: "/orders/{id}/tracking",
		PathKind: refs.KindOrder, Requirement: RequireCredential},

	// Reviews
	{Name: OpReviewsCreate, Summary: "Write a review", Method: http.MethodPost, Path: "/reviews",
		Requirement: RequireCredential, Fields: reviewFields},

	// Analytics
	{Name: OpAnalyticsSummary, Summary: "Show the analytics summary", Method: http.MethodGet, Path: "/admin/analytics/summary",
		Requirement: RequireAdmin},
	{Name: OpAnalyticsSales, Summary: "Show sales analytics", Method: http.MethodGet, Path: "/admin/analytics/sales",
		Requirement: RequireAdmin, Fields: []Field{{Name: "days", Rule: RuleIntDefault, Default: "30", Fallback: 30, In: InQuery, Usage: "Window in days"}}},
	{Name: OpAnalyticsAudit, Summary: "Show the audit log", Method: http.MethodGet, Path: "/admin/audit-logs",
		Requirement: RequireAdmin},

	// Utilities
	{Name: OpHealth, Summary: "Check API health", Method: http.MethodGet, Path: "/health"},
	{Name: OpSearch, Summary: "Search the catalog", Method: http.MethodGet, Path: "/search",
		Fields: []Field{{Name: "q", Rule: RuleString, In: InQuery, Usage: "Search query"}}},
}
