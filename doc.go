// Package oai implements a typed client for the Open Archives Initiative
// Protocol for Metadata Harvesting (OAI-PMH), a low-barrier mechanism for
// repository interoperability.
//
// Records are parsed into Go values by a Format. Two vocabularies come with
// the package, simple Dublin Core (oai_dc) and DSpace xoai, and Raw keeps the
// metadata of any other prefix as XML. A Harvester binds a Client to a Format
// and follows resumption tokens until a list is complete.
//
// Basic usage:
//
//	client, err := oai.NewClient("https://demo.dspace.org/oai/request")
//	if err != nil {
//		log.Fatal(err)
//	}
//	h := oai.NewHarvester[oai.Dc](client, oai.DublinCore{})
//	result, err := h.ListAll(ctx, oai.Params{Set: "com_123456789_2"})
//
// The commands under cmd/ print records as JSON:
//
//	$ oai -prefix xoai -set col_1_2 https://demo.dspace.org/oai/request
package oai
