// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"path/filepath"

	"github.com/wso2/carbon-p2/internal/p2"
	"github.com/wso2/carbon-p2/internal/staging"
)

// PlannedStagingRoot stands in for the timestamped staging directory in a Plan.
const PlannedStagingRoot = "tmp.<millis>"

// Plan returns the tool invocations Assemble would run for req, without
// resolving artifacts or touching the filesystem.
func Plan(req Request) ([]p2.Invocation, error) {
	if err := req.Validate(); err != nil {
		return nil, &StepError{Step: StepValidate, Err: err}
	}
	req, err := req.absolute()
	if err != nil {
		return nil, &StepError{Step: StepValidate, Err: err}
	}
	repoURI, err := p2.FileURI(req.RepositoryLocation())
	if err != nil {
		return nil, &StepError{Step: StepValidate, Err: err}
	}
	root := filepath.Join(req.TargetDir, PlannedStagingRoot)

	plan := []p2.Invocation{publishInvocation(req, filepath.Join(root, staging.SourceDirName), repoURI)}
	if len(req.Categories) > 0 {
		categoryURI, err := p2.FileURI(filepath.Join(root, staging.CategoryFileName))
		if err != nil {
			return nil, &StepError{Step: StepValidate, Err: err}
		}
		plan = append(plan, categorizeInvocation(req, repoURI, categoryURI))
	}
	return plan, nil
}

// PlanProduct returns the invocation PublishProduct would run for req.
func PlanProduct(req ProductRequest) (p2.Invocation, error) {
	if err := req.Validate(); err != nil {
		return p2.Invocation{}, &StepError{Step: StepValidate, Err: err}
	}
	productFile, err := filepath.Abs(req.ProductFile)
	if err != nil {
		return p2.Invocation{}, &StepError{Step: StepValidate, Err: err}
	}
	repoURI, err := p2.FileURI(req.RepositoryDir)
	if err != nil {
		return p2.Invocation{}, &StepError{Step: StepValidate, Err: err}
	}
	return productInvocation(req, productFile, repoURI), nil
}

func publishInvocation(req Request, source, repoURI string) p2.Invocation {
	return p2.GenerateRepository(p2.RepositoryGeneration{
		Source:                 source,
		MetadataRepository:     repoURI,
		MetadataRepositoryName: req.RepositoryName(),
		ArtifactRepository:     repoURI,
		ArtifactRepositoryName: req.RepositoryName(),
	}).In(req.BaseDir).WithTimeout(req.Timeout)
}

func categorizeInvocation(req Request, repoURI, categoryURI string) p2.Invocation {
	return p2.UpdateCategories(repoURI, categoryURI).In(req.BaseDir).WithTimeout(req.Timeout)
}

func productInvocation(req ProductRequest, productFile, repoURI string) p2.Invocation {
	return p2.PublishProduct(p2.ProductPublication{
		MetadataRepository: repoURI,
		ArtifactRepository: repoURI,
		ProductFile:        productFile,
		Executables:        req.Executables,
	}).In(req.BaseDir).WithTimeout(req.Timeout)
}
