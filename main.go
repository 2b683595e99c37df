// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/wso2/carbon-p2/cmd/carbonp2"

func main() {
	cmd.Execute()
}
