/*
DESCRIPTION
  load.go reads the flat key=value configuration file format described
  in the external-interfaces configuration table into the map that
  Config.Update expects.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads a flat key=value configuration file: blank lines and
// lines beginning with '#' are ignored, and each remaining line must
// be of the form "key=value" (whitespace around both is trimmed).
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: could not open config file: %w", err)
	}
	defer f.Close()

	vars := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("config: %s:%d: expected key=value, got %q", path, lineNum, line)
		}
		vars[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: could not read config file: %w", err)
	}
	return vars, nil
}
