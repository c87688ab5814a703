// Package i18n translates message codes into user-facing strings.
package i18n

import (
	"context"

	"golang.org/x/text/language"
)

const DefaultLang = "en"

var supported = []language.Tag{language.English, language.Vietnamese}

var matcher = language.NewMatcher(supported)

var catalogs = map[string]map[string]string{
	"en": {
		"required":               "Required",
		"customer_required":      "Please select a customer.",
		"customer_not_found":     "The selected customer no longer exists.",
		"product_not_found":      "The selected product no longer exists.",
		"product_required":       "Please select a product.",
		"quantity_positive":      "Please enter a quantity greater than 0.",
		"quantity_integer":       "Quantity must be a whole number.",
		"amount_positive":        "Please enter an amount greater than 0.",
		"amount_too_large":       "Amount is too large.",
		"total_too_large":        "Amount times quantity is too large.",
		"quantity_too_large":     "Quantity is too large.",
		"status_invalid":         "Please select an invoice status.",
		"date_invalid":           "Invalid date format",
		"customer_name_required": "Please enter a customer name.",
		"code_required":          "Please enter a product code.",
		"product_name_required":  "Please enter a product name.",
		"product_name_too_long":  "Product name must be at most 100 characters.",
		"note_too_long":          "Note must be at most 500 characters.",
		"products_min":           "At least one item is required.",
		"products_max":           "No more than 10 items can be added.",
		"product_name_duplicate": "Item names must be unique within a batch.",
		"cost_name_required":     "Please enter a cost name.",
		"form_invalid":           "Missing fields. Failed to save.",
		"db_error":               "Database error. Failed to save.",
		"delete_failed":          "Database error. Failed to delete.",
		"not_found":              "Record not found.",
		"in_use":                 "Record is still referenced by invoices.",
		"read_failed":            "Database error. Failed to load data.",
		"invalid_body":           "Malformed request body.",
		"internal_error":         "Internal server error.",
	},
	"vi": {
		"required":               "Bắt buộc",
		"customer_required":      "Vui lòng nhập khách hàng.",
		"customer_not_found":     "Khách hàng đã chọn không còn tồn tại.",
		"product_not_found":      "Sản phẩm đã chọn không còn tồn tại.",
		"product_required":       "Vui lòng nhập sản phẩm.",
		"quantity_positive":      "Vui lòng nhập số lượng lớn hơn 0.",
		"quantity_integer":       "Số lượng phải là số nguyên.",
		"amount_positive":        "Vui lòng nhập số tiền lớn hơn 0.",
		"amount_too_large":       "Số tiền quá lớn.",
		"total_too_large":        "Thành tiền (đơn giá × số lượng) quá lớn.",
		"quantity_too_large":     "Số lượng quá lớn.",
		"status_invalid":         "Vui lòng chọn trạng thái.",
		"date_invalid":           "Ngày không hợp lệ.",
		"customer_name_required": "Vui lòng nhập tên khách hàng.",
		"code_required":          "Vui lòng nhập mã sản phẩm.",
		"product_name_required":  "Vui lòng nhập tên hàng hóa.",
		"product_name_too_long":  "Tên hàng hóa không được vượt quá 100 ký tự.",
		"note_too_long":          "Ghi chú không được vượt quá 500 ký tự.",
		"products_min":           "Phải có ít nhất một hàng hóa.",
		"products_max":           "Không được thêm quá 10 hàng hóa.",
		"product_name_duplicate": "Tên hàng hóa phải là duy nhất trong cùng một container.",
		"cost_name_required":     "Vui lòng nhập tên chi phí.",
		"form_invalid":           "Dữ liệu không hợp lệ. Không thể lưu.",
		"db_error":               "Lỗi cơ sở dữ liệu. Không thể lưu.",
		"delete_failed":          "Lỗi cơ sở dữ liệu. Không thể xóa.",
		"not_found":              "Không tìm thấy dữ liệu.",
		"in_use":                 "Dữ liệu đang được hóa đơn sử dụng.",
		"read_failed":            "Lỗi cơ sở dữ liệu. Không thể tải dữ liệu.",
		"invalid_body":           "Dữ liệu gửi lên không hợp lệ.",
		"internal_error":         "Lỗi máy chủ.",
	},
}

// T returns the message for code in lang, falling back to the default
// language and finally to the code itself.
func T(lang, code string) string {
	if msg, ok := catalogs[lang][code]; ok {
		return msg
	}
	if msg, ok := catalogs[DefaultLang][code]; ok {
		return msg
	}
	return code
}

// TAll translates every code.
func TAll(lang string, codes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = T(lang, c)
	}
	return out
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}

// DetectLanguage picks the best supported language for an Accept-Language header.
func DetectLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	tag, _, _ := matcher.Match(tags...)
	base, _ := tag.Base()
	if Supported(base.String()) {
		return base.String()
	}
	return DefaultLang
}

type ctxKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFrom returns the request language, or DefaultLang.
func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
