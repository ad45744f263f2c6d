package domain

// Customer is an address-book entry. WechatNickname is the matching key used
// by order reconciliation; uniqueness is a soft expectation only, several
// customers may share one nickname.
type Customer struct {
	ID             string `json:"id"`
	WechatNickname string `json:"wechatNickname"`
	RealName       string `json:"realName"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}

// Normalize repairs a customer slice decoded from an external blob.
func Normalize(customers []Customer) []Customer {
	out := make([]Customer, 0, len(customers))
	out = append(out, customers...)
	return out
}
