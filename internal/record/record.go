// 包 record：有序字段记录（字段名 -> 字符串值），插入顺序即展示顺序
package record

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Record：一次查询产出的扁平记录
// 约束：同名字段重复 Set 时覆盖值但保留首次插入位置；零值可直接使用。
type Record struct {
	keys []string
	vals map[string]string
}

func New() *Record { return &Record{vals: map[string]string{}} }

// Set：写入字段
func (r *Record) Set(k, v string) {
	if r.vals == nil {
		r.vals = map[string]string{}
	}
	if _, ok := r.vals[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.vals[k] = v
}

// SetIf：仅在 ok 为真时写入，用于“提取成功才出现”的字段
func (r *Record) SetIf(k, v string, ok bool) {
	if ok {
		r.Set(k, v)
	}
}

func (r *Record) Get(k string) (string, bool) {
	v, ok := r.vals[k]
	return v, ok
}

// Value：缺失时返回空串
func (r *Record) Value(k string) string { return r.vals[k] }

func (r *Record) Has(k string) bool {
	_, ok := r.vals[k]
	return ok
}

func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int { return len(r.keys) }

// Map：导出为无序 map，供测试与模板使用
func (r *Record) Map() map[string]string {
	out := make(map[string]string, len(r.vals))
	for k, v := range r.vals {
		out[k] = v
	}
	return out
}

// MarshalJSON：按插入顺序输出 JSON 对象
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON：按对象中的出现顺序恢复字段；仅接受字符串值
func (r *Record) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("record: expected object")
	}
	r.keys = nil
	r.vals = map[string]string{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		k, _ := kt.(string)
		var v string
		if err := dec.Decode(&v); err != nil {
			return err
		}
		r.Set(k, v)
	}
	_, err = dec.Token()
	return err
}
