// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"github.com/apexpro/onboarding-service/cmd"
)

func main() {
	cmd.Execute()
}
