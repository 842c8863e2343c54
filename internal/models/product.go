package models

// Product is one candidate item retrieved for a turn (a refrigerator in the catalog).
type Product struct {
	ModelNo      string            `bson:"model_no"      json:"modelNo"` // e.g. "RF85C90D1AP"
	Name         string            `bson:"name"          json:"name"`
	Category     string            `bson:"category"      json:"category"`
	Price        int64             `bson:"price"         json:"price"`
	BenefitPrice int64             `bson:"benefit_price" json:"benefitPrice"`
	Rating       float64           `bson:"rating"        json:"rating"`
	ReviewCount  int               `bson:"review_count"  json:"reviewCount"`
	ImageURL     string            `bson:"image_url"     json:"imageUrl"`
	Spec         map[string]string `bson:"spec"          json:"spec,omitempty"`
	Embedding    []float32         `bson:"embedding"     json:"-"`
	Score        float64           `bson:"score"         json:"score"` // vector search score
}
