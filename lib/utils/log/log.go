/*
 * Edgegate
 * Copyright (C) 2026  Stackmesh, Inc.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

// Package log provides helpers for the structured loggers used
// throughout edgegate.
package log

import "log/slog"

// NewPackageLogger creates a logger with the provided attributes
// attached, suitable for use as a package level default logger.
func NewPackageLogger(args ...any) *slog.Logger {
	return slog.Default().With(args...)
}

// DiscardLogger drops everything logged to it. Useful as a default in
// tests and optional configs.
var DiscardLogger = slog.New(slog.DiscardHandler)
