// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/wso2/carbon-p2/internal/issue"
	"github.com/wso2/carbon-p2/internal/p2"
)

// DefaultProfile is used when a request names no profile.
const DefaultProfile = "WSO2CarbonProfile"

const (
	// RetentionListing prunes in directory listing order (by file name).
	RetentionListing RetentionOrder = "listing"
	// RetentionModTime prunes oldest-modified first.
	RetentionModTime RetentionOrder = "modtime"
)

// ErrInvalidRetentionOrder is the sentinel error wrapped by InvalidRetentionOrderError.
var ErrInvalidRetentionOrder = errors.New("invalid retention order")

type (
	// RetentionOrder decides which profile snapshot survives pruning: the
	// last one in this order. The zero value means RetentionListing.
	RetentionOrder string

	// InvalidRetentionOrderError is returned for an unknown RetentionOrder.
	InvalidRetentionOrderError struct {
		Value RetentionOrder
	}

	// InstallRequest installs features into a profile.
	InstallRequest struct {
		Destination string
		// Profile defaults to DefaultProfile.
		Profile string
		// Repository is the metadata and artifact repository URL.
		Repository string
		Features   []p2.IU
		// FeatureGroups addresses each feature's group unit instead of the
		// bare feature id.
		FeatureGroups bool
		// KeepOldProfiles disables pruning of older registry snapshots.
		KeepOldProfiles bool
		Timeout         time.Duration
	}

	// UninstallRequest removes features from a profile.
	UninstallRequest struct {
		Destination   string
		Profile       string
		Features      []p2.IU
		FeatureGroups bool
		Timeout       time.Duration
	}

	// GenerateRequest materializes a product as a profile.
	GenerateRequest struct {
		Destination string
		Profile     string
		Repository  string
		ProductID   string
		Timeout     time.Duration
	}
)

// Error implements the error interface.
func (e *InvalidRetentionOrderError) Error() string {
	return fmt.Sprintf("invalid retention order %q (valid: listing, modtime)", e.Value)
}

// Unwrap returns ErrInvalidRetentionOrder.
func (e *InvalidRetentionOrderError) Unwrap() error { return ErrInvalidRetentionOrder }

// Validate returns an error if the order is not recognized.
func (o RetentionOrder) Validate() error {
	switch o {
	case "", RetentionListing, RetentionModTime:
		return nil
	default:
		return &InvalidRetentionOrderError{Value: o}
	}
}

// String returns the order name.
func (o RetentionOrder) String() string { return string(o) }

// Layout returns the installation layout of the request.
func (r InstallRequest) Layout() p2.Layout {
	return p2.Layout{Destination: r.Destination, Profile: profileOrDefault(r.Profile)}
}

// Layout returns the installation layout of the request.
func (r UninstallRequest) Layout() p2.Layout {
	return p2.Layout{Destination: r.Destination, Profile: profileOrDefault(r.Profile)}
}

// Layout returns the installation layout of the request.
func (r GenerateRequest) Layout() p2.Layout {
	return p2.Layout{Destination: r.Destination, Profile: profileOrDefault(r.Profile)}
}

// InstallUnits validates the request and returns the -installIU list.
func (r InstallRequest) InstallUnits() (string, error) {
	if err := validateCommon(r.Destination, r.Timeout); err != nil {
		return "", err
	}
	if strings.TrimSpace(r.Repository) == "" {
		return "", issue.NewConfigurationError("repository", "must not be empty")
	}
	return unitList(r.Features, r.FeatureGroups)
}

// UninstallUnits validates the request and returns the -uninstallIU list.
func (r UninstallRequest) UninstallUnits() (string, error) {
	if err := validateCommon(r.Destination, r.Timeout); err != nil {
		return "", err
	}
	return unitList(r.Features, r.FeatureGroups)
}

// Validate reports the first missing required field.
func (r GenerateRequest) Validate() error {
	if err := validateCommon(r.Destination, r.Timeout); err != nil {
		return err
	}
	switch {
	case strings.TrimSpace(r.Repository) == "":
		return issue.NewConfigurationError("repository", "must not be empty")
	case strings.TrimSpace(r.ProductID) == "":
		return issue.NewConfigurationError("product_id", "must not be empty")
	}
	return nil
}

func validateCommon(destination string, timeout time.Duration) error {
	if strings.TrimSpace(destination) == "" {
		return issue.NewConfigurationError("destination", "must not be empty")
	}
	if timeout < 0 {
		return issue.NewConfigurationError("timeout", "must not be negative")
	}
	return nil
}

func unitList(features []p2.IU, groups bool) (string, error) {
	units := slices.Clone(features)
	if groups {
		for i := range units {
			if id := strings.TrimSpace(units[i].ID); id != "" {
				units[i].ID = p2.FeatureGroupID(id)
			}
		}
	}
	return p2.IUList(units)
}

func profileOrDefault(profile string) string {
	if p := strings.TrimSpace(profile); p != "" {
		return p
	}
	return DefaultProfile
}
