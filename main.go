package main

import "github.com/zuhairmahd/AutopilotLogViewer/internal/cmd"

func main() {
	cmd.Execute()
}
