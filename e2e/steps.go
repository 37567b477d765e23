package e2e

import (
	"github.com/cucumber/godog"

	"skillchain/e2e/steps/auth"
	"skillchain/e2e/steps/common"
	"skillchain/e2e/steps/credential"
	"skillchain/e2e/steps/ratelimit"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	auth.RegisterSteps(ctx, tc)
	credential.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}
