/*
Package jmx is the rewrite engine for JMeter test plans.

	+-----------+      +-------------+      +-------------+
	|   Parse   | ---> |   Rewrite   | ---> |    Save     |
	| (etree)   |      | (in place)  |      | (n times)   |
	+-----------+      +-------------+      +-------------+

🎯 Purpose:
- Load a .jmx file into a mutable tree that keeps every unrelated node
- Label each TransactionController as 事务_<LABEL>#<suffix>
- Label each HTTPSamplerProxy in the group's hashTree as <LABEL>_<n>#<path>
- Drop heartbeat requests and, optionally, HeaderManager pairs
- Apply ordered literal substitutions to request paths

📐 Structure:
A JMeter plan stores children in a hashTree element placed right after the
element that owns them:

	<TransactionController testname="login"/>
	<hashTree>
	  <HTTPSamplerProxy testname="POST /api/login">...</HTTPSamplerProxy>
	  <hashTree>
	    <HeaderManager/>
	    <hashTree/>
	  </hashTree>
	</hashTree>

🔄 Lifecycle:
Parsed -> Rewritten -> Save any number of times. A second Rewrite fails with
ErrAlreadyRewritten unless Options.AllowRerun is set, in which case suffixes
are re-derived from the already rewritten names.
*/
package jmx
