package libvirt

import (
	"encoding/xml"
	"fmt"

	"github.com/digitalocean/go-libvirt"
)

const (
	// MetadataNamespace is the XML namespace of kickvm's domain metadata.
	MetadataNamespace = "https://github.com/jbweber/kickvm/v1"

	// MetadataKey is the element prefix used in the domain XML.
	MetadataKey = "kickvm"
)

// metadataStore is the subset of *libvirt.Libvirt used for domain metadata.
type metadataStore interface {
	DomainLookupByName(name string) (libvirt.Domain, error)
	DomainSetMetadata(dom libvirt.Domain, typ int32, metadata libvirt.OptString, key libvirt.OptString, uri libvirt.OptString, flags libvirt.DomainModificationImpact) error
	DomainGetMetadata(dom libvirt.Domain, typ int32, uri libvirt.OptString, flags libvirt.DomainModificationImpact) (string, error)
}

// provisionMetadata wraps the YAML document stored on a domain. The YAML is
// kept as text so it stays readable in virsh dumpxml.
type provisionMetadata struct {
	XMLName xml.Name `xml:"provision"`
	Xmlns   string   `xml:"xmlns,attr"`
	Config  string   `xml:",chardata"`
}

// StoreMetadata records doc on the domain called name, replacing what was
// stored before. The change applies to the persistent definition.
func StoreMetadata(lv metadataStore, name, doc string) error {
	dom, err := lv.DomainLookupByName(name)
	if err != nil {
		return fmt.Errorf("failed to look up domain %s: %w", name, err)
	}

	data, err := xml.Marshal(provisionMetadata{Xmlns: MetadataNamespace, Config: doc})
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	err = lv.DomainSetMetadata(
		dom,
		int32(libvirt.DomainMetadataElement),
		libvirt.OptString{string(data)},
		libvirt.OptString{MetadataKey},
		libvirt.OptString{MetadataNamespace},
		libvirt.DomainAffectConfig,
	)
	if err != nil {
		return fmt.Errorf("failed to set metadata on domain %s: %w", name, err)
	}
	return nil
}

// LoadMetadata returns the document stored by StoreMetadata.
func LoadMetadata(lv metadataStore, name string) (string, error) {
	dom, err := lv.DomainLookupByName(name)
	if err != nil {
		return "", fmt.Errorf("failed to look up domain %s: %w", name, err)
	}

	raw, err := lv.DomainGetMetadata(
		dom,
		int32(libvirt.DomainMetadataElement),
		libvirt.OptString{MetadataNamespace},
		libvirt.DomainAffectConfig,
	)
	if err != nil {
		return "", fmt.Errorf("failed to get metadata of domain %s: %w", name, err)
	}

	var md provisionMetadata
	if err := xml.Unmarshal([]byte(raw), &md); err != nil {
		return "", fmt.Errorf("failed to parse metadata of domain %s: %w", name, err)
	}
	return md.Config, nil
}
