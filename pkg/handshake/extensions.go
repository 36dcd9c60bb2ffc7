package handshake

import "github.com/sara-star-quant/tls13-client/internal/constants"

// Extension types present in ClientHello/ServerHello/EncryptedExtensions.
// Each is written as:
//
//	uint16 extension_type
//	opaque extension_data<0..2^16-1>

func writeExtension(w *writer, extType uint16, body []byte) {
	w.u16(extType)
	w.vec16(body)
}

func encodeServerNameExtension(name string) []byte {
	var nameList writer
	nameList.u8(constants.ServerNameTypeHostName)
	nameList.vec16([]byte(name))

	var w writer
	w.vec16(nameList.bytes())
	return w.bytes()
}

func encodeSupportedVersionsCH(versions []uint16) []byte {
	var list writer
	for _, v := range versions {
		list.u16(v)
	}
	var w writer
	w.vec8(list.bytes())
	return w.bytes()
}

func decodeSupportedVersionsSH(body []byte) (uint16, error) {
	r := newReader(body)
	v, err := r.u16()
	if err != nil {
		return 0, err
	}
	return v, nil
}

func encodeSupportedGroups(groups []NamedGroup) []byte {
	var list writer
	for _, g := range groups {
		list.u16(uint16(g))
	}
	var w writer
	w.vec16(list.bytes())
	return w.bytes()
}

func encodeSignatureAlgorithms(algs []constants.SignatureScheme) []byte {
	var list writer
	for _, a := range algs {
		list.u16(uint16(a))
	}
	var w writer
	w.vec16(list.bytes())
	return w.bytes()
}

func encodePSKKeyExchangeModes(modes []uint8) []byte {
	var w writer
	w.vec8(modes)
	return w.bytes()
}

func encodeALPN(protocols []string) []byte {
	var list writer
	for _, p := range protocols {
		list.vec8([]byte(p))
	}
	var w writer
	w.vec16(list.bytes())
	return w.bytes()
}

func decodeALPN(body []byte) (string, error) {
	r := newReader(body)
	list, err := r.vec16()
	if err != nil {
		return "", err
	}
	lr := newReader(list)
	if lr.done() {
		return "", nil
	}
	proto, err := lr.vec8()
	if err != nil {
		return "", err
	}
	return string(proto), nil
}

func encodeKeyShareCH(shares []KeyShareEntry) []byte {
	var list writer
	for _, s := range shares {
		list.u16(uint16(s.Group))
		list.vec16(s.Data)
	}
	var w writer
	w.vec16(list.bytes())
	return w.bytes()
}

func decodeKeyShareSH(body []byte) (*KeyShareEntry, error) {
	r := newReader(body)
	group, err := r.u16()
	if err != nil {
		return nil, err
	}
	data, err := r.vec16()
	if err != nil {
		return nil, err
	}
	return &KeyShareEntry{Group: NamedGroup(group), Data: data}, nil
}

// decodeExtensions walks a ClientHello/ServerHello/EncryptedExtensions
// extensions<0..2^16-1> block and invokes visit for each (type, body)
// pair. visit returning an error aborts the walk.
func decodeExtensions(body []byte, visit func(extType uint16, data []byte) error) error {
	r := newReader(body)
	for !r.done() {
		extType, err := r.u16()
		if err != nil {
			return err
		}
		data, err := r.vec16()
		if err != nil {
			return err
		}
		if err := visit(extType, data); err != nil {
			return err
		}
	}
	return nil
}
