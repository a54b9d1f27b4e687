package indexer

import (
	"encoding/base64"
	"strconv"
	"strings"

	"mailscope/internal/model"
)

const programDataPrefix = "Program data: "

// ParseProgramData walks a transaction's log messages, tracking the invoke stack,
// and returns every `Program data:` payload attributed to the program that emitted it.
// Chunks that are not valid base64 are dropped.
func ParseProgramData(logs []string) []model.LogPayload {
	var (
		stack    []string
		payloads []model.LogPayload
	)
	for _, line := range logs {
		if strings.HasPrefix(line, programDataPrefix) {
			if len(stack) == 0 {
				continue
			}
			program := stack[len(stack)-1]
			for _, chunk := range strings.Fields(line[len(programDataPrefix):]) {
				data, err := base64.StdEncoding.DecodeString(chunk)
				if err != nil {
					continue
				}
				payloads = append(payloads, model.LogPayload{ProgramID: program, Data: data})
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "Program" || strings.HasSuffix(fields[1], ":") {
			continue
		}
		switch {
		case isInvoke(fields):
			stack = append(stack, fields[1])
		case isExit(fields):
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return payloads
}

// isInvoke matches `Program <id> invoke [n]`.
func isInvoke(fields []string) bool {
	if len(fields) != 4 || fields[2] != "invoke" {
		return false
	}
	depth := fields[3]
	if len(depth) < 3 || depth[0] != '[' || depth[len(depth)-1] != ']' {
		return false
	}
	_, err := strconv.Atoi(depth[1 : len(depth)-1])
	return err == nil
}

// isExit matches `Program <id> success` and `Program <id> failed: <reason>`.
func isExit(fields []string) bool {
	return (len(fields) == 3 && fields[2] == "success") || fields[2] == "failed:"
}
