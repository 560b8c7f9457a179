package dashboard

import (
	"context"
	"fmt"
)

// EndUser is a platform end user as listed on the saldo screen.
type EndUser struct {
	ID                 int64   `json:"id"`
	PhoneNumber        string  `json:"phoneNumber"`
	Status             string  `json:"status"`
	RegistrationStatus string  `json:"registrationStatus"`
	Saldo              float64 `json:"saldo"`
	CreatedAt          string  `json:"createdAt"`
}

// KYCProfile is a submitted identity-verification profile.
type KYCProfile struct {
	ID              int64  `json:"id"`
	FullName        string `json:"fullName"`
	NIK             string `json:"nik"`
	Address         string `json:"address"`
	PlaceOfBirth    string `json:"placeOfBirth"`
	DOB             string `json:"dob"`
	Gender          string `json:"gender"`
	Religion        string `json:"religion"`
	MaritalStatus   string `json:"maritalStatus"`
	Job             string `json:"job"`
	SelfieURL       string `json:"selfieUrl"`
	KTPURL          string `json:"ktpUrl"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason,omitempty"`
	RequestID       string `json:"requestId"`
	VerifiedAt      string `json:"verifiedAt"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// EndUserDetail is the saldo-detail view: the account plus its KYC history.
type EndUserDetail struct {
	ID                 int64        `json:"id"`
	PhoneNumber        string       `json:"phoneNumber"`
	Status             string       `json:"status"`
	RegistrationStatus string       `json:"registrationStatus"`
	Saldo              float64      `json:"saldo"`
	CreatedAt          string       `json:"createdAt"`
	UpdatedAt          string       `json:"updatedAt"`
	KYCProfiles        []KYCProfile `json:"kycProfiles"`
}

func (c *Client) ListEndUsers(ctx context.Context) ([]EndUser, error) {
	var users []EndUser
	if err := c.get(ctx, "/api/web/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) EndUserDetail(ctx context.Context, id int64) (*EndUserDetail, error) {
	var detail EndUserDetail
	if err := c.get(ctx, fmt.Sprintf("/api/web/users/%d", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
