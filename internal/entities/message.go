package entities

type Message struct {
	ID         string
	From       string
	To         string // channel identity the tenant is resolved by
	Content    string
	Platform   string // "whatsapp", "telegram", "web"
	IsCallback bool   // from an inline keyboard button
}

type Response struct {
	Content string
}
