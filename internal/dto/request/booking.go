package request

type CreateBookingRequest struct {
	UnitID         string  `json:"unit_id" validate:"required,uuid"`
	CheckInDate    string  `json:"check_in_date" validate:"required,dateonly"`
	DurationMonths int     `json:"duration_months" validate:"required,min=1,max=60"`
	PaymentMethod  string  `json:"payment_method" validate:"required,oneof=transfer ewallet credit"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type AvailabilityRequest struct {
	UnitID         string `validate:"required,uuid"`
	CheckInDate    string `validate:"required,dateonly"`
	DurationMonths int    `validate:"required,min=1,max=60"`
}
