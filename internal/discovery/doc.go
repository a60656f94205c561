// Package discovery provides mDNS-based discovery of Moonraker printers.
//
// Moonraker advertises itself on the local network using the
// "_moonraker._tcp" service type. The scanner broadcasts mDNS queries,
// collects advertisements for the scan window, and returns the printers
// it heard from with their resolved addresses and TXT metadata.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	printers, err := scanner.ScanForPrinters()
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, p := range printers {
//		fmt.Println(p)
//	}
package discovery
