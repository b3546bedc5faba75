// Package entitlement defines the subscription catalog and entitlement
// identifiers. The catalog is static; no store backend is consulted.
package entitlement

import (
	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
)

// EntitlementPro unlocks the premium XP multiplier.
const EntitlementPro = "pro"

// Package is one purchasable subscription package.
type Package struct {
	Identifier  string  `json:"identifier"`
	PackageType string  `json:"package_type"`
	PriceString string  `json:"price_string"`
	Price       float64 `json:"price"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
}

// Offering groups the packages shown on the paywall.
type Offering struct {
	Monthly Package `json:"monthly"`
	Annual  Package `json:"annual"`
}

var monthly = Package{
	Identifier:  "stepxp_pro_monthly",
	PackageType: "MONTHLY",
	PriceString: "$4.99",
	Price:       4.99,
	Title:       "StepXP Pro Monthly",
	Description: "Unlock 1.5x XP Boost",
}

var annual = Package{
	Identifier:  "stepxp_pro_annual",
	PackageType: "ANNUAL",
	PriceString: "$39.99",
	Price:       39.99,
	Title:       "StepXP Pro Annual",
	Description: "Unlock 1.5x XP Boost (Save 33%)",
}

// CurrentOffering returns the paywall packages.
func CurrentOffering() Offering {
	return Offering{Monthly: monthly, Annual: annual}
}

// PackageByID resolves a purchasable package by its identifier.
func PackageByID(id string) (Package, error) {
	switch id {
	case monthly.Identifier:
		return monthly, nil
	case annual.Identifier:
		return annual, nil
	default:
		return Package{}, apperrors.WithMetadata(apperrors.CodeBillingPackageUnknown, "unknown package", map[string]string{
			"package_id": id,
		})
	}
}
