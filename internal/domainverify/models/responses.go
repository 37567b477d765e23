package models

type VerifyDomainResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	TransactionHash string `json:"transactionHash"`
	Domain          string `json:"domain"`
	IssuerAddress   string `json:"issuerAddress"`
}

func NewVerifyDomainResponse(res *VerificationResult) *VerifyDomainResponse {
	return &VerifyDomainResponse{
		Success:         true,
		Message:         "Domain verified successfully",
		TransactionHash: res.TransactionHash,
		Domain:          res.Domain,
		IssuerAddress:   res.IssuerAddress,
	}
}
