package catalog

import "github.com/shopspring/decimal"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func price(supplierID, amount, day string) PriceRecord {
	return PriceRecord{SupplierID: supplierID, Price: dec(amount), LastUpdated: MustParseDate(day)}
}

func obs(supplierID, amount, day string) PriceObservation {
	return PriceObservation{SupplierID: supplierID, Price: dec(amount), Date: MustParseDate(day)}
}

// SampleData is the dataset seeded into an empty blob store.
func SampleData() Snapshot {
	return Snapshot{
		Suppliers: []Supplier{
			{
				ID:             "s1",
				Name:           "Global Supplies Inc.",
				Contact:        "John Smith",
				Phone:          "+1 (555) 123-4567",
				Email:          "john@globalsupplies.com",
				Notes:          "Reliable supplier with good prices. Orders must be placed 3 days in advance.",
				ProductCount:   12,
				AvgPriceChange: dec("-2.5"),
			},
			{
				ID:             "s2",
				Name:           "Value Distributors",
				Contact:        "Sarah Johnson",
				Phone:          "+1 (555) 987-6543",
				Email:          "sarah@valuedist.com",
				Notes:          "Best prices for electronics. Weekly deliveries on Monday.",
				ProductCount:   8,
				AvgPriceChange: dec("1.8"),
			},
			{
				ID:             "s3",
				Name:           "Local Wholesale Co.",
				Contact:        "Mike Davis",
				Phone:          "+1 (555) 456-7890",
				Email:          "mike@localwholesale.com",
				Notes:          "Same-day delivery available. Minimum order $200.",
				ProductCount:   15,
				AvgPriceChange: dec("-3.2"),
			},
			{
				ID:             "s4",
				Name:           "Premium Goods Ltd.",
				Contact:        "Lisa Wong",
				Phone:          "+1 (555) 234-5678",
				Email:          "lisa@premiumgoods.com",
				Notes:          "High quality products but premium prices. 30-day payment terms.",
				ProductCount:   6,
				AvgPriceChange: dec("0.5"),
			},
		},
		Products: []Product{
			{
				ID: "p1", Name: "Rice (50kg)", Category: "grocery", SKU: "GRO-RICE-50",
				Prices: []PriceRecord{
					price("s1", "42.50", "2025-01-15"),
					price("s3", "39.99", "2025-01-18"),
				},
				PriceHistory: []PriceObservation{
					obs("s1", "45.00", "2024-12-20"),
					obs("s1", "42.50", "2025-01-15"),
					obs("s3", "41.25", "2024-12-15"),
					obs("s3", "39.99", "2025-01-18"),
				},
			},
			{
				ID: "p2", Name: "Cooking Oil (10L)", Category: "grocery", SKU: "GRO-OIL-10L",
				Prices: []PriceRecord{
					price("s1", "28.75", "2025-01-12"),
					price("s3", "27.50", "2025-01-17"),
					price("s4", "32.99", "2025-01-05"),
				},
				PriceHistory: []PriceObservation{
					obs("s1", "26.50", "2024-12-10"),
					obs("s1", "28.75", "2025-01-12"),
					obs("s3", "27.50", "2025-01-17"),
					obs("s4", "30.99", "2024-12-20"),
					obs("s4", "32.99", "2025-01-05"),
				},
			},
			{
				ID: "p3", Name: "Sugar (25kg)", Category: "grocery", SKU: "GRO-SUGAR-25",
				Prices: []PriceRecord{
					price("s1", "19.99", "2025-01-10"),
					price("s3", "18.50", "2025-01-15"),
				},
				PriceHistory: []PriceObservation{
					obs("s1", "21.50", "2024-12-05"),
					obs("s1", "19.99", "2025-01-10"),
					obs("s3", "18.50", "2025-01-15"),
				},
			},
			{
				ID: "p4", Name: "Basic Smartphone", Category: "electronics", SKU: "ELE-PHONE-B1",
				Prices: []PriceRecord{
					price("s2", "89.99", "2025-01-18"),
					price("s4", "99.50", "2025-01-12"),
				},
				PriceHistory: []PriceObservation{
					obs("s2", "95.00", "2024-12-15"),
					obs("s2", "89.99", "2025-01-18"),
					obs("s4", "99.50", "2025-01-12"),
				},
			},
			{
				ID: "p5", Name: "T-shirts (Pack of 5)", Category: "apparel", SKU: "APP-TSHIRT-5PK",
				Prices: []PriceRecord{
					price("s2", "12.50", "2025-01-08"),
					price("s3", "14.75", "2025-01-20"),
				},
				PriceHistory: []PriceObservation{
					obs("s2", "10.99", "2024-12-10"),
					obs("s2", "12.50", "2025-01-08"),
					obs("s3", "13.25", "2024-12-20"),
					obs("s3", "14.75", "2025-01-20"),
				},
			},
			{
				ID: "p6", Name: "Cookware Set", Category: "home-goods", SKU: "HG-COOKSET-B",
				Prices: []PriceRecord{
					price("s1", "65.75", "2025-01-05"),
					price("s4", "79.99", "2025-01-15"),
				},
				PriceHistory: []PriceObservation{
					obs("s1", "68.25", "2024-12-15"),
					obs("s1", "65.75", "2025-01-05"),
					obs("s4", "79.99", "2025-01-15"),
				},
			},
		},
		Alerts: []Alert{
			{
				ID: "a1", Type: AlertPriceDrop, ProductID: "p1", SupplierID: "s3",
				OldPrice: DecimalPtr(dec("41.25")), NewPrice: DecimalPtr(dec("39.99")),
				Date: MustParseDate("2025-01-18"),
			},
			{
				ID: "a2", Type: AlertPriceIncrease, ProductID: "p2", SupplierID: "s4",
				OldPrice: DecimalPtr(dec("30.99")), NewPrice: DecimalPtr(dec("32.99")),
				Date: MustParseDate("2025-01-05"), Read: true,
			},
			{
				ID: "a3", Type: AlertOpportunity, ProductID: "p3", SupplierID: "s3",
				BestPrice: DecimalPtr(dec("18.50")), Savings: DecimalPtr(dec("1.49")),
				Date: MustParseDate("2025-01-15"),
			},
		},
	}
}
