package validate

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"shopkeep/internal/domain"
)

var (
	reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

	v = newValidator()
)

// Messages shown next to each item field.
var itemMessages = map[string]string{
	"name":              "Name is required",
	"description":       "Description is required",
	"purchasePrice":     "Purchase price must be non-negative",
	"sellingPrice":      "Selling price must be non-negative",
	"quantity":          "Quantity must be a non-negative integer",
	"lowStockThreshold": "Threshold must be a non-negative integer",
}

const MsgSellQty = "Quantity must be at least 1"

func newValidator() *validator.Validate {
	vv := validator.New()
	// decimals are validated by their numeric value so gte/lte tags work
	vv.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	vv.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return vv
}

// ID validates a simple resource identifier (item ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Item checks a NewItem after trimming its text fields. It returns nil when
// the item is acceptable.
func Item(in *domain.NewItem) *domain.ValidationError {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	verr := domain.NewValidationError()
	if err := v.Struct(in); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				addOnce(verr, fe.Field())
			}
		} else {
			verr.Add("_server", err.Error())
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// ParseItemForm reads the add-item form through get, reporting unparsable
// numbers and rule violations per field.
func ParseItemForm(get func(key string) string) (domain.NewItem, *domain.ValidationError) {
	in := domain.NewItem{
		Name:        get("name"),
		Description: get("description"),
	}
	verr := domain.NewValidationError()

	var ok bool
	if in.PurchasePrice, ok = money(get("purchasePrice")); !ok {
		addOnce(verr, "purchasePrice")
	}
	if in.SellingPrice, ok = money(get("sellingPrice")); !ok {
		addOnce(verr, "sellingPrice")
	}
	if in.Quantity, ok = count(get("quantity")); !ok {
		addOnce(verr, "quantity")
	}
	if in.LowStockThreshold, ok = count(get("lowStockThreshold")); !ok {
		addOnce(verr, "lowStockThreshold")
	}

	if rules := Item(&in); rules != nil {
		for f := range rules.Fields {
			addOnce(verr, f)
		}
	}
	if verr.Empty() {
		return in, nil
	}
	return in, verr
}

// SellQty parses the sell form quantity; it must be an integer >= 1.
func SellQty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func money(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func count(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func addOnce(verr *domain.ValidationError, field string) {
	if _, seen := verr.Fields[field]; seen {
		return
	}
	msg, ok := itemMessages[field]
	if !ok {
		msg = "Invalid value"
	}
	verr.Add(field, msg)
}
