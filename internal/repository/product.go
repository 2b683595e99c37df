// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/wso2/carbon-p2/internal/issue"
	"github.com/wso2/carbon-p2/internal/p2"
)

// PublishProduct publishes an existing .product file into the repository at
// req.RepositoryDir. Failures are *StepError values with StepValidate or
// StepPublish.
func (p *Pipeline) PublishProduct(ctx context.Context, req ProductRequest) error {
	if err := req.Validate(); err != nil {
		return &StepError{Step: StepValidate, Err: err}
	}

	productFile, err := filepath.Abs(req.ProductFile)
	if err != nil {
		return &StepError{Step: StepValidate, Err: issue.NewConfigurationError("product_file", err.Error())}
	}
	if info, err := os.Stat(productFile); err != nil || info.IsDir() {
		reason := "is a directory"
		if err != nil {
			reason = err.Error()
			if errors.Is(err, fs.ErrNotExist) {
				reason = "does not exist"
			}
		}
		return &StepError{Step: StepValidate, Err: issue.NewConfigurationError("product_file", productFile+" "+reason)}
	}

	repoURI, err := p2.FileURI(req.RepositoryDir)
	if err != nil {
		return &StepError{Step: StepValidate, Err: issue.NewConfigurationError("repository", err.Error())}
	}

	p.logger.Info("publishing product", "product", productFile, "repository", req.RepositoryDir)
	if err := p.invoker().Invoke(ctx, productInvocation(req, productFile, repoURI)); err != nil {
		p.logger.Error("product publishing failed", "err", err)
		return &StepError{Step: StepPublish, Err: err}
	}
	return nil
}
