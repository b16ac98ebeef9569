// Copyright 2025 Scott Friedman
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"

	"github.com/scttfrdmn/zisraw/internal/config"
	"github.com/scttfrdmn/zisraw/internal/registry"
)

// openConfiguredStore opens the registry database named in the user's
// configuration (or the default location if unconfigured), the shared
// entry point every command that touches the registry uses.
func openConfiguredStore() (*registry.Store, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := registry.Open(cfg.Registry.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open registry %s: %w", cfg.Registry.DBPath, err)
	}
	return store, nil
}
