// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

// DefaultIcon is a small SVG potato.
const DefaultIcon = "data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 32 32'%3E%3Cellipse cx='16' cy='16' rx='13' ry='10' fill='%23b5854b'/%3E%3Ccircle cx='11' cy='13' r='1.2' fill='%236b4a24'/%3E%3Ccircle cx='20' cy='18' r='1.2' fill='%236b4a24'/%3E%3Ccircle cx='15' cy='20' r='1' fill='%236b4a24'/%3E%3C/svg%3E"
