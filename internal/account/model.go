package account

import "time"

type Address struct {
	StreetNo     string `json:"streetNo"`
	BuildingName string `json:"buildingName"`
	Locality     string `json:"locality"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Pincode      string `json:"pincode" validate:"required,numeric,len=6"`
}

type CreditCard struct {
	CardNumber   string `json:"cardNumber" validate:"omitempty,numeric,min=12,max=19"`
	CardValidity string `json:"cardValidity" validate:"omitempty"`
	CardCVV      string `json:"cardCVV" validate:"omitempty,numeric,len=3"`
}

func (c CreditCard) IsZero() bool { return c.CardNumber == "" }

// Matches is an exact comparison of all three fields.
func (c CreditCard) Matches(o CreditCard) bool {
	return !c.IsZero() && c.CardNumber == o.CardNumber && c.CardValidity == o.CardValidity && c.CardCVV == o.CardCVV
}

type Customer struct {
	ID         int64              `json:"customerId"`
	FirstName  string             `json:"firstName"`
	LastName   string             `json:"lastName"`
	Mobile     string             `json:"mobileNo"`
	Email      string             `json:"emailId"`
	Password   string             `json:"-"`
	CreatedOn  time.Time          `json:"createdOn"`
	Addresses  map[string]Address `json:"address"`
	CreditCard CreditCard         `json:"creditCard"`
}

type Seller struct {
	ID        int64     `json:"sellerId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Mobile    string    `json:"mobile"`
	Email     string    `json:"emailId"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type Registration struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=50"`
	LastName  string `json:"lastName" validate:"required,min=1,max=50"`
	Mobile    string `json:"mobileNo" validate:"required,numeric,len=10"`
	Email     string `json:"emailId" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=64"`
}

type Credentials struct {
	Mobile   string `json:"mobileId" validate:"required,numeric,len=10"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdate struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=50"`
	Mobile    *string `json:"mobileNo" validate:"omitempty,numeric,len=10"`
	Email     *string `json:"emailId" validate:"omitempty,email"`
}

type PasswordChange struct {
	Mobile      string `json:"mobileId" validate:"required,numeric,len=10"`
	NewPassword string `json:"password" validate:"required,min=8,max=64"`
}

type MobileChange struct {
	Mobile   string `json:"mobile" validate:"required,numeric,len=10"`
	Password string `json:"password" validate:"required"`
}
