package cli

import "time"

// TabWidth is the width of tabs in formatted output.
const TabWidth = 2

// percent scales a progress fraction for display.
const percent = 100

const durationPrecision = 100 * time.Millisecond
