// Package partnership implements the partnership configuration store.
//
// The store loads partners and partnerships from an XML file, validates and
// merges them into an immutable Snapshot and publishes it atomically. It
// persists the current snapshot back to the file with numbered backups,
// reloads when the file changes (through the watcher package) or when an
// operator asks for it, and applies command-driven mutations by publishing
// modified copies.
//
// A partnership file looks like this:
//
//	<partnerships>
//	  <partner name="acme" as2_id="ACME" x509_alias="acme"/>
//	  <partner name="globex" as2_id="GLOBEX" x509_alias="globex"/>
//	  <partnership name="acme-to-globex">
//	    <sender name="acme"/>
//	    <receiver name="globex"/>
//	    <attribute name="protocol" value="as2"/>
//	    <attribute name="as2_url" value="http://globex.example:10080"/>
//	  </partnership>
//	</partnerships>
//
// Errors returned by Load, Refresh and Save are *Error values and match
// ErrParse or ErrIO with errors.Is.
package partnership
