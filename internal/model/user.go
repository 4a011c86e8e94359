package model

type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	WalletAddress string `json:"wallet_address"`
	Role          string `json:"role"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}
