// SPDX-License-Identifier: MPL-2.0

package profile

import "github.com/wso2/carbon-p2/internal/p2"

// PlanInstall validates req and returns the director invocation Install runs.
func PlanInstall(req InstallRequest) (p2.Invocation, error) {
	ius, err := req.InstallUnits()
	if err != nil {
		return p2.Invocation{}, &StepError{Step: StepValidate, Err: err}
	}
	return p2.InstallFeatures(req.Repository, ius, req.Layout()).WithTimeout(req.Timeout), nil
}

// PlanUninstall validates req and returns the director invocation Uninstall runs.
func PlanUninstall(req UninstallRequest) (p2.Invocation, error) {
	ius, err := req.UninstallUnits()
	if err != nil {
		return p2.Invocation{}, &StepError{Step: StepValidate, Err: err}
	}
	return p2.UninstallFeatures(ius, req.Layout()).WithTimeout(req.Timeout), nil
}

// PlanGenerate validates req and returns the director invocation
// GenerateProfile runs.
func PlanGenerate(req GenerateRequest) (p2.Invocation, error) {
	if err := req.Validate(); err != nil {
		return p2.Invocation{}, &StepError{Step: StepValidate, Err: err}
	}
	return p2.GenerateProfile(req.Repository, req.ProductID, req.Layout()).WithTimeout(req.Timeout), nil
}
