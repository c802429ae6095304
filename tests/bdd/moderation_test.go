package bdd

import "github.com/cucumber/godog"

// Use of godog CLI is deprecated, please use *testing.T instead.
// See https://github.com/cucumber/godog/discussions/478 for details.
// Feature: 檢舉審核
//   In order to keep the chat clean
//   As a moderation operator
//   I want reported messages reviewed and removed

//   Background:
//     Given "viewer1" 已登入並取得 Token "token1"
//     And 場次 "show-1" 開播中

//   Scenario: 檢舉進入審核佇列
//     When "viewer1" 檢舉訊息 "msg-1" 原因 "spam"
//     Then 審核佇列應該收到 "msg-1" 的檢舉

//   Scenario: 審核後下架訊息
//     Given 審核佇列已有 "msg-1" 的檢舉
//     When 審核人員下架訊息 "msg-1"
//     Then "msg-1" 不應該再出現在近期訊息

// TODO: 下架流程要等審核後台的 consumer 進 repo 才接得起來

func viewerLoginToken(arg1, arg2 string) error {
	return godog.ErrPending
}

func showIsLive(arg1 string) error {
	return godog.ErrPending
}

func reportMessageWithReason(arg1, arg2, arg3 string) error {
	return godog.ErrPending
}

func moderationQueueReceives(arg1 string) error {
	return godog.ErrPending
}

func moderationQueueAlreadyHas(arg1 string) error {
	return godog.ErrPending
}

func operatorRemovesMessage(arg1 string) error {
	return godog.ErrPending
}

func messageNotInRecent(arg1 string) error {
	return godog.ErrPending
}

func InitializeModerationScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^"([^"]*)" 已登入並取得 Token "([^"]*)"$`, viewerLoginToken)
	ctx.Step(`^場次 "([^"]*)" 開播中$`, showIsLive)
	ctx.Step(`^"([^"]*)" 檢舉訊息 "([^"]*)" 原因 "([^"]*)"$`, reportMessageWithReason)
	ctx.Step(`^審核佇列應該收到 "([^"]*)" 的檢舉$`, moderationQueueReceives)
	ctx.Step(`^審核佇列已有 "([^"]*)" 的檢舉$`, moderationQueueAlreadyHas)
	ctx.Step(`^審核人員下架訊息 "([^"]*)"$`, operatorRemovesMessage)
	ctx.Step(`^"([^"]*)" 不應該再出現在近期訊息$`, messageNotInRecent)
}
