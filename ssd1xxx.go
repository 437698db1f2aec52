package lcd

// Commands of the SH1106 and SSD1306 OLED controllers.
const (
	ssd1xxxSetMemoryMode      = 0x20
	ssd1xxxSetChargePump      = 0x8D
	ssd1xxxSetMultiplexRatio  = 0xA8
	ssd1xxxSetDCDC            = 0xAD
	ssd1xxxSetDisplayOffset   = 0xD3
	ssd1xxxSetDisplayClockDiv = 0xD5
	ssd1xxxSetPrecharge       = 0xD9
	ssd1xxxSetComPins         = 0xDA
	ssd1xxxSetVCOMDeselect    = 0xDB
	ssd1xxxPageAddressingMode = 0x02
)
