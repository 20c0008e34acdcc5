package oai

import (
	"fmt"
	"strings"
	"time"
)

func MustParse(layout, s string) time.Time {
	t, err := time.Parse(layout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func MustParseDefault(s string) time.Time {
	return MustParse("2006-01-02", s)
}

func strptr(s string) *string { return &s }

const getRecordResponse = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <responseDate>2019-03-01T10:20:30Z</responseDate>
  <request verb="GetRecord" identifier="oai:example.org:1" metadataPrefix="oai_dc">https://example.org/oai</request>
  <GetRecord>
    <record>
      <header>
        <identifier>oai:example.org:1</identifier>
        <datestamp>2018-12-24T08:00:00Z</datestamp>
        <setSpec>col_1</setSpec>
        <setSpec>com_2</setSpec>
      </header>
      <metadata>
        <oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/" xmlns:dc="http://purl.org/dc/elements/1.1/">
          <dc:title>T1</dc:title>
          <dc:title>T2</dc:title>
          <dc:creator>Doe, Jane</dc:creator>
          <dc:description/>
        </oai_dc:dc>
      </metadata>
    </record>
  </GetRecord>
</OAI-PMH>`

const getRecordEmptyResponse = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <responseDate>2019-03-01T10:20:30Z</responseDate>
  <GetRecord></GetRecord>
</OAI-PMH>`

const idDoesNotExistResponse = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <responseDate>2019-03-01T10:20:30Z</responseDate>
  <request verb="GetRecord">https://example.org/oai</request>
  <error code="idDoesNotExist">No matching identifier</error>
</OAI-PMH>`

const noRecordsMatchResponse = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <responseDate>2019-03-01T10:20:30Z</responseDate>
  <request verb="ListRecords">https://example.org/oai</request>
  <error code="noRecordsMatch">No records</error>
</OAI-PMH>`

const badArgumentResponse = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <responseDate>2019-03-01T10:20:30Z</responseDate>
  <error code="badArgument">Illegal argument</error>
</OAI-PMH>`

// dcRecord renders a record with a single dc:title.
func dcRecord(id, title string) string {
	return fmt.Sprintf(`<record>
      <header>
        <identifier>%s</identifier>
        <datestamp>2019-01-01</datestamp>
      </header>
      <metadata>
        <oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/" xmlns:dc="http://purl.org/dc/elements/1.1/">
          <dc:title>%s</dc:title>
        </oai_dc:dc>
      </metadata>
    </record>`, id, title)
}

// listRecordsPage renders a ListRecords response. The token argument is
// inserted verbatim, so it may be empty.
func listRecordsPage(token string, ids ...string) string {
	var records []string
	for _, id := range ids {
		records = append(records, dcRecord(id, "title of "+id))
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <responseDate>2019-03-01T10:20:30Z</responseDate>
  <request verb="ListRecords" metadataPrefix="oai_dc">https://example.org/oai</request>
  <ListRecords>
    %s
    %s
  </ListRecords>
</OAI-PMH>`, strings.Join(records, "\n    "), token)
}

const xoaiResponse = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <responseDate>2019-03-01T10:20:30Z</responseDate>
  <ListRecords>
    <record>
      <header>
        <identifier>oai:example.org:7</identifier>
        <datestamp>2019-01-01T00:00:00Z</datestamp>
      </header>
      <metadata>
        <metadata xmlns="http://www.lyncode.com/xoai">
          <element name="dc">
            <element name="title">
              <element name="none">
                <field name="value">A title</field>
              </element>
            </element>
          </element>
          <element name="bundles"/>
        </metadata>
      </metadata>
    </record>
    <record>
      <header status="deleted">
        <identifier>oai:example.org:8</identifier>
        <datestamp>2019-01-02T00:00:00Z</datestamp>
      </header>
    </record>
  </ListRecords>
</OAI-PMH>`
