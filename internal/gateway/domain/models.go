package domain

// GatewayID is the payment method identifier the storefront submits.
const GatewayID = "custom"

// Settings keys for the gateway's stored configuration.
const (
	SettingEnabled      = "gateway.custom.enabled"
	SettingTitle        = "gateway.custom.title"
	SettingDescription  = "gateway.custom.description"
	SettingInstructions = "gateway.custom.instructions"
	SettingOrderStatus  = "gateway.custom.order_status"
)

// Defaults applied when a setting has never been saved.
const (
	DefaultEnabled     = "yes"
	DefaultTitle       = "Custom Payment"
	DefaultDescription = "Payment Information"
	DefaultOrderStatus = "wc-completed"
)

// Config is the gateway configuration snapshot read fresh from the
// settings store on each request.
type Config struct {
	Enabled      bool
	Title        string
	Description  string
	Instructions string
	OrderStatus  string
}
