package domain

// Rarity is a closed-set display tag attached to catalog products. It drives
// badge styling only and never affects pricing or filtering.
type Rarity string

const (
	// RarityCommon is the default bucket for products without a known rarity.
	RarityCommon Rarity = "common"
	// RarityRare marks limited-run products.
	RarityRare Rarity = "rare"
	// RarityEpic marks showcase products.
	RarityEpic Rarity = "epic"
)

// NormalizeRarity maps unknown or empty rarity values onto RarityCommon.
func NormalizeRarity(value Rarity) Rarity {
	switch value {
	case RarityCommon, RarityRare, RarityEpic:
		return value
	default:
		return RarityCommon
	}
}

// MediaKind distinguishes the supported product media types.
type MediaKind string

const (
	// MediaKindImage identifies still images.
	MediaKindImage MediaKind = "image"
	// MediaKindVideo identifies video clips.
	MediaKindVideo MediaKind = "video"
)

// MediaItem is a single gallery entry attached to a product.
type MediaItem struct {
	Kind   MediaKind
	Source string
}

// Product is an immutable catalog entry. Prices are stored in centavos.
type Product struct {
	ID          string
	Title       string
	PriceCents  int64
	Categories  []string
	Rarity      Rarity
	IsNew       bool
	Description string
	Media       []MediaItem
}

// CartLine is one product's accumulated quantity inside the cart. Title,
// unit price, and thumbnail are snapshots taken when the line is first
// created; later catalog changes do not reach existing lines.
type CartLine struct {
	ProductID      string `json:"id"`
	Title          string `json:"title"`
	UnitPriceCents int64  `json:"price"`
	Quantity       int    `json:"qty"`
	Thumbnail      string `json:"thumb"`
}

// LineTotalCents returns the line's price contribution in centavos.
func (l CartLine) LineTotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Page enumerates the storefront's navigable pages.
type Page string

const (
	// PageHome shows new arrivals.
	PageHome Page = "home"
	// PageShop shows the filtered catalog.
	PageShop Page = "shop"
	// PageCart shows the cart contents.
	PageCart Page = "cart"
	// PageCheckout shows the order form.
	PageCheckout Page = "checkout"
	// PageCustom shows the custom-order inquiry form.
	PageCustom Page = "custom"
)

// AllCategories is the sentinel category meaning "no category filter".
const AllCategories = "All"

// BrowseState captures the ephemeral view and search state for one session.
// TypedQuery is the uncommitted input buffer; CommittedQuery is the term the
// filter actually applies. The two only converge on an explicit search submit.
type BrowseState struct {
	ActivePage       Page
	ActiveCategory   string
	TypedQuery       string
	CommittedQuery   string
	SelectedProduct  string
	ActiveMediaIndex int
}

// BuyerDetails holds the checkout form fields. Note is the only optional one.
type BuyerDetails struct {
	Name       string `validate:"required"`
	Email      string `validate:"required,email"`
	Address    string `validate:"required"`
	PostalCode string `validate:"required"`
	Note       string
}

// CustomInquiry holds the custom-order inquiry form fields.
type CustomInquiry struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	Title       string
	Description string
}
