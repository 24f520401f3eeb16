package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// ProductType – immutable value object
// ---------------------------------------------------------------------------

// ProductType identifies the category of a debt product.
type ProductType struct {
	value string
}

const (
	productTypeCard     = "card"
	productTypePersonal = "personal"
	productTypeMicro    = "micro"
	productTypeLoan     = "loan"
	productTypeOther    = "other"
)

var (
	ProductTypeCard     = ProductType{value: productTypeCard}
	ProductTypePersonal = ProductType{value: productTypePersonal}
	ProductTypeMicro    = ProductType{value: productTypeMicro}
	ProductTypeLoan     = ProductType{value: productTypeLoan}
	ProductTypeOther    = ProductType{value: productTypeOther}
)

var validProductTypes = map[string]ProductType{
	productTypeCard:     ProductTypeCard,
	productTypePersonal: ProductTypePersonal,
	productTypeMicro:    ProductTypeMicro,
	productTypeLoan:     ProductTypeLoan,
	productTypeOther:    ProductTypeOther,
}

// Aliases seen in upstream data files.
var productTypeAliases = map[string]ProductType{
	"personal_loan": ProductTypePersonal,
	"personal-loan": ProductTypePersonal,
	"micro_loan":    ProductTypeMicro,
	"micro-loan":    ProductTypeMicro,
	"credit_card":   ProductTypeCard,
	"credit-card":   ProductTypeCard,
}

// NewProductType creates a ProductType from a canonical raw string.
func NewProductType(s string) (ProductType, error) {
	v, ok := validProductTypes[s]
	if !ok {
		return ProductType{}, fmt.Errorf("invalid product type: %q", s)
	}
	return v, nil
}

// ParseProductType maps a raw label to a ProductType, accepting the alias
// spellings used by the source datasets. Unknown labels map to
// ProductTypeOther so that the caller decides whether "other" is acceptable.
func ParseProductType(raw string) ProductType {
	value := strings.ToLower(strings.TrimSpace(raw))
	if v, ok := validProductTypes[value]; ok {
		return v
	}
	if v, ok := productTypeAliases[value]; ok {
		return v
	}
	return ProductTypeOther
}

// String returns the string representation of the product type.
func (p ProductType) String() string { return p.value }

// IsZero returns true if the product type has not been initialised.
func (p ProductType) IsZero() bool { return p.value == "" }

// Equal returns true when both product types carry the same value.
func (p ProductType) Equal(other ProductType) bool { return p.value == other.value }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrUnsupportedProductType = errors.New("unsupported product type")
)
