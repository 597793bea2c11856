// Command felipe pairs a Gemini chat with a bridge that runs the model's
// tool calls on a workspace, one human-approved call at a time.
package main

func main() {
	Execute()
}
