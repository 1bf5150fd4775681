// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/markoverano/npm-command-runner/cmd/npmrun"

func main() {
	cmd.Execute()
}
