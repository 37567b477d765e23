package models

// VerifyWalletResponse keeps the firebaseToken field name existing clients read.
type VerifyWalletResponse struct {
	FirebaseToken string       `json:"firebaseToken"`
	User          UserResponse `json:"user"`
}

type UserResponse struct {
	Address    string  `json:"address"`
	Email      *string `json:"email"`
	HasProfile bool    `json:"hasProfile"`
}

func NewVerifyWalletResponse(r *LoginResult) *VerifyWalletResponse {
	var email *string
	if r.Email != "" {
		e := r.Email
		email = &e
	}
	return &VerifyWalletResponse{
		FirebaseToken: r.Token,
		User: UserResponse{
			Address:    r.Address.String(),
			Email:      email,
			HasProfile: r.HasProfile,
		},
	}
}
