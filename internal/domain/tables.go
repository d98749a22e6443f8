package domain

var Tables = []interface{}{
	// Catalog
	&Product{},
	&ProductImage{},
	// Identity
	&Seller{},
	// Marketing
	&Coupon{},
	&Customer{},
	// System
	&OperationLog{},
}
