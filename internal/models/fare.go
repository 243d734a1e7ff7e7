package models

// Fare is the itemized price breakdown attached to a ride. All amounts are
// rounded to 2 decimal places when the breakdown is computed.
type Fare struct {
	Base     float64 `json:"base" bson:"base"`
	Distance float64 `json:"distance" bson:"distance"`
	Time     float64 `json:"time" bson:"time"`
	Tax      float64 `json:"tax" bson:"tax"`
	Total    float64 `json:"total" bson:"total"`
	Currency string  `json:"currency" bson:"currency" default:"PKR"`
}
