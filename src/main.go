package main

import "QuestionnaireAnalysis/src/cmd"

func main() {
	cmd.Execute()
}
