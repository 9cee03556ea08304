package descriptions

// Tool descriptions with practical examples and use cases

const (
	OrderExtractFileDescription = `Extract a normalized transport order from a Transalliance / Ziegler booking PDF.

**When to use:** A booking or chartering confirmation PDF has arrived and its customer, pickup and delivery stops, cargo and freight price are needed as structured data.

**What you get:** A JSON object with the order (reference, freight price and currency, customer, loading and destination locations with time windows, cargo items, attachment filename) and a list of warnings for every value that had to be substituted.

**Examples:**
• "Extract the order from bookings/TA-2024-0042.pdf"
• "Read chartering-confirmation.pdf and create the order" (set create=true)

**Notes:** Paths are resolved inside the configured directory. Documents that are not booking confirmations are rejected with "unsupported document". With create=true the order is also written to the configured order output.`

	OrderExtractTextDescription = `Extract a transport order from booking text that was already pulled out of a PDF.

**When to use:** The text of a Transalliance booking is available (pasted, OCR output, another extractor) and no file is on disk.

**What you get:** The same JSON order and warnings as order_extract_file. Each line of the text is one line of the document; blank lines are ignored.

**Examples:**
• "Extract the order from this booking text: ..."
• "Parse the pasted chartering confirmation, attachment name booking-42.pdf"`

	OrderDetectFormatDescription = `Check whether a PDF or a block of text is a supported booking layout, without extracting.

**When to use:** Routing incoming documents: only booking / chartering confirmations (or documents with a rate plus loading and delivery sections) can be extracted.

**What you get:** supported (true/false), the number of non-blank lines and the layout markers that were found.

**Examples:**
• "Is inbox/scan-17.pdf a Transalliance booking?"
• "Detect the format of this text before extracting it"`

	OrderListFilesDescription = `List the PDF files available in the configured booking directory.

**When to use:** Finding which booking documents can be passed to order_extract_file.

**What you get:** Name, path, size and modification time of every PDF below the directory, newest first.`

	OrderServerInfoDescription = `Get server status, configuration and the list of available tools.

**When to use:** Discovering the configured directory, the time zone dates are read in, the missing-date policy and where created orders are written.

**Best practices:** Call once at the start of a session.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"order_extract_file":  OrderExtractFileDescription,
	"order_extract_text":  OrderExtractTextDescription,
	"order_detect_format": OrderDetectFormatDescription,
	"order_list_files":    OrderListFilesDescription,
	"order_server_info":   OrderServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}
