package credential

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers credential verification and share access steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &credentialSteps{tc: tc}

	ctx.Step(`^I verify credential "([^"]*)" on the blockchain$`, steps.verifyOnChain)
	ctx.Step(`^I verify the data of credential "([^"]*)" with:$`, steps.verifyData)
	ctx.Step(`^I verify the credentials "([^"]*)" in one batch$`, steps.verifyBatch)
	ctx.Step(`^I open the share link "([^"]*)"$`, steps.openShareLink)
	ctx.Step(`^I list the credentials of share "([^"]*)"$`, steps.listSharedCredentials)
	ctx.Step(`^the batch should report (\d+) results$`, steps.batchShouldReport)
}

type credentialSteps struct {
	tc TestContext
}

func (s *credentialSteps) verifyOnChain(ctx context.Context, id string) error {
	return s.tc.GET("/api/credentials/verify-blockchain/"+id, nil)
}

func (s *credentialSteps) verifyData(ctx context.Context, id string, body *godog.DocString) error {
	return s.tc.POST("/api/credentials/verify-credential-data/"+id, body.Content)
}

func (s *credentialSteps) verifyBatch(ctx context.Context, ids string) error {
	var list []string
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			list = append(list, id)
		}
	}
	return s.tc.POST("/api/credentials/verify-batch", map[string]interface{}{
		"credentialIds": list,
	})
}

func (s *credentialSteps) openShareLink(ctx context.Context, shareID string) error {
	return s.tc.GET("/api/credentials/verify/"+shareID, nil)
}

func (s *credentialSteps) listSharedCredentials(ctx context.Context, shareID string) error {
	return s.tc.GET("/api/credentials/shared/"+shareID+"/credentials", nil)
}

func (s *credentialSteps) batchShouldReport(ctx context.Context, n int) error {
	results, err := s.tc.GetResponseField("results")
	if err != nil {
		return err
	}
	list, ok := results.([]interface{})
	if !ok {
		return fmt.Errorf("results is not a list: %v", results)
	}
	if len(list) != n {
		return fmt.Errorf("expected %d results but got %d", n, len(list))
	}
	return nil
}
