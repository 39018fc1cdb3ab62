// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

// manufacturerNames maps ISO/IEC 7816-6 manufacturer codes, as found in
// the first UID byte, to vendor names. Pure data; used for diagnostics
// when a tag's serial area fails validation.
var manufacturerNames = map[byte]string{
	0x01: "Motorola",
	0x02: "STMicroelectronics",
	0x03: "Hitachi",
	0x04: "NXP Semiconductors",
	0x05: "Infineon Technologies",
	0x06: "Cylink",
	0x07: "Texas Instruments",
	0x08: "Fujitsu",
	0x09: "Matsushita",
	0x0A: "NEC",
	0x0B: "Oki Electric",
	0x0C: "Toshiba",
	0x0D: "Mitsubishi Electric",
	0x0E: "Samsung Electronics",
	0x0F: "Hynix",
	0x10: "LG Semiconductors",
	0x11: "Emosyn-EM Microelectronics",
	0x12: "INSIDE Technology",
	0x13: "ORGA Kartensysteme",
	0x14: "Sharp",
	0x15: "ATMEL",
	0x16: "EM Microelectronic-Marin",
	0x17: "SMARTRAC Technology",
	0x18: "ZMD",
	0x19: "XICOR",
	0x1A: "Sony",
	0x1B: "Malaysia Microelectronic Solutions",
	0x1C: "Emosyn",
	0x1D: "Shanghai Fudan Microelectronics",
	0x1E: "Magellan Technology",
	0x1F: "Melexis",
}

// ManufacturerName returns the vendor name for an ISO 7816-6 manufacturer
// code, or "unknown" for codes not in the table.
func ManufacturerName(code byte) string {
	if name, ok := manufacturerNames[code]; ok {
		return name
	}
	return "unknown"
}
