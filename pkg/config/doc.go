/*
Package config manages configuration loading and validation for jmxlabel.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Decode a config file over Default() using the parser picked by extension
- Validate label width, trim pattern, substitutions and include glob
- Compile the result into jmx.Options

📝 Example (YAML):

	label_width: 2
	path_trim_pattern: 'http://\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}'
	strip_headers: true
	substitutions:
	  - old: 10.0.0.1
	    new: ${host}
	  - old: ${host}/api
	    new: ${host}/v2

Substitutions run in the order listed; each one sees the output of the
previous one. In HCL, write a literal ${ as $${.
*/
package config
