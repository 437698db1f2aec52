package lcd

// Page and column addressing commands shared by all page addressed controllers.
const (
	cmdSetLowColumn  = 0x00
	cmdSetHighColumn = 0x10
	cmdSetPageAddr   = 0xB0
)

// AddressCommands encodes the three commands that point the controller's write
// address at the page holding row and at column col.
//
// The display memory is organized in pages of 8 rows and 132 columns.
func AddressCommands(row, col int) [3]byte {
	return [3]byte{
		cmdSetLowColumn | byte(col&0x0F),
		cmdSetHighColumn | byte((col>>4)&0x0F),
		cmdSetPageAddr | byte((row>>3)&0x0F),
	}
}

func setAddress(bus Bus, row, col int) error {
	for _, cmd := range AddressCommands(row, col) {
		if err := bus.Command(cmd); err != nil {
			return err
		}
	}
	bus.CommandDelay()
	return nil
}
